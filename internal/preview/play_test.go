package preview

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/livetree/pkg/host"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlayScenarios(t *testing.T) {
	tests := []struct {
		scenario string
		want     []string
	}{
		{"list", []string{
			"<div>1</div><div>2</div><div>3</div>",
			"<div>1</div><div>2</div><div>3</div><div>4</div><div>5</div>",
			"<div>1</div><div>2</div><div>3</div><div>4</div>",
			"<div>-1</div><div>0</div><div>1</div><div>2</div><div>3</div><div>4</div>",
			"<div>0</div><div>1</div><div>2</div><div>3</div><div>4</div>",
			"<div>0</div><div>1</div><div>9</div><div>99</div><div>999</div><div>3</div><div>4</div>",
			"",
		}},
		{"atom", []string{
			"<p>hello</p>",
			"<p>undefined</p>",
			"<p>null</p>",
			"<p>42</p>",
		}},
		{"func", []string{
			"<div><p>mode: text</p></div>",
			"<div><ul>ab</ul></div>",
			"<div><ul>abc</ul></div>",
			"<div></div>",
			"<div><p>mode: text</p></div>",
		}},
		{"array", []string{
			"<ul><li>a</li><li>b</li><li>c</li></ul>",
			"<ul><li>a</li><li>b</li><li>c</li><li>d</li></ul>",
			"<ul><li>a</li><li>B</li><li>c</li><li>d</li></ul>",
			"<ul><li>B</li><li>c</li><li>d</li><li>a</li></ul>",
			"<ul><li>x</li><li>y</li></ul>",
		}},
		{"component", []string{
			`<div class="counter"><span>clicks</span>: 0 (double 0)</div>`,
			`<div class="counter"><span>clicks</span>: 1 (double 2)</div>`,
			`<div class="counter"><span>clicks</span>: 2 (double 4)</div>`,
			`<div class="counter"><span>clicks</span>: 10 (double 20)</div>`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			s, ok := Lookup(tt.scenario)
			if !ok {
				t.Fatalf("scenario %q not found", tt.scenario)
			}
			var got []Snapshot
			err := Play(context.Background(), s, func(snap Snapshot) {
				got = append(got, snap)
			}, host.WithLogger(quietLogger()))
			if err != nil {
				t.Fatalf("Play error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d snapshots, want %d", len(got), len(tt.want))
			}
			for i, snap := range got {
				if snap.HTML != tt.want[i] {
					t.Errorf("step %d (%s): got %s, want %s", i, snap.Name, snap.HTML, tt.want[i])
				}
				if snap.Step != i || snap.Scenario != tt.scenario {
					t.Errorf("snapshot %d = %+v", i, snap)
				}
			}
		})
	}
}

func TestSessionComments(t *testing.T) {
	s, _ := Lookup("atom")
	session, err := Start(context.Background(), s, host.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	session.Comments = true
	if got := session.Snapshot().HTML; got != "<p>hello<!--slot--></p><!--root-->" {
		t.Errorf("got %s", got)
	}
	if err := session.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSessionAdvancePastEnd(t *testing.T) {
	s := Scenario{Name: "empty", Setup: func() (any, []Step) { return "x", nil }}
	session, err := Start(context.Background(), s, host.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if !session.Done() {
		t.Error("a scenario without steps is done after render")
	}
	if _, err := session.Advance(context.Background()); err == nil {
		t.Error("Advance past the end should fail")
	}
}

func TestPlayCancelled(t *testing.T) {
	s, _ := Lookup("list")
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	err := Play(ctx, s, func(Snapshot) {
		n++
		cancel()
	}, host.WithLogger(quietLogger()))
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if n != 1 {
		t.Errorf("emitted %d snapshots", n)
	}
}

func TestNames(t *testing.T) {
	want := []string{"array", "atom", "component", "func", "list"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
