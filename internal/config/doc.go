// Package config loads the livetree.json file read by the livetree
// command.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "info",
//	  "style": {
//	    "prefix": "lt-"
//	  },
//	  "metrics": {
//	    "namespace": "livetree"
//	  },
//	  "tracing": {
//	    "tracerName": "livetree"
//	  },
//	  "serve": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "tickMillis": 1000
//	  }
//	}
//
// Every field is optional. Missing fields take the values from Default.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.ServeAddress())
package config
