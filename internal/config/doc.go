// Package config loads vtree.json, the project configuration read by the
// vtree command.
//
// A missing file is not an error for most commands: LoadOrDefault falls back
// to the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "root": "App",
//	  "render": {
//	    "pretty": true,
//	    "title": "Todo"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vtree"
//	  },
//	  "preview": {
//	    "port": 7070,
//	    "shutdownTimeout": "5s"
//	  },
//	  "snapshot": {
//	    "store": "s3",
//	    "bucket": "previews",
//	    "prefix": "todo/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	logger, _ := cfg.NewLogger(os.Stderr)
package config
