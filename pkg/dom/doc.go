// Package dom is the in-memory output tree livetree hosts render into.
//
// Nodes are elements, text, comments, fragments or documents. Inserting a
// fragment moves its children into the target and leaves the fragment
// empty, like the browser DOM. A node is connected when its root is a
// document.
//
// Serialization to HTML is provided to observe the tree in tests, the CLI
// and the preview server; it is not a server-side rendering pipeline.
package dom
