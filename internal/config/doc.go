// Package config provides configuration parsing for the emmet tools.
//
// The configuration is stored in emmet.json (or emmet.yaml / emmet.yml) at
// the project root. This package handles loading, saving, and validating
// configuration, and turns it into expander options and a logger.
//
// # Configuration File Structure
//
//	{
//	  "expand": {
//	    "indent": "  ",
//	    "maxInputLength": 65536,
//	    "maxDepth": 256,
//	    "maxMultiplier": 1000
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "metricsPath": "/metrics",
//	    "tracing": false,
//	    "shutdownTimeout": "10s",
//	    "allowedOrigins": ["https://example.com"]
//	  },
//	  "store": {
//	    "backend": "s3",
//	    "s3": {
//	      "bucket": "snippets",
//	      "prefix": "emmet/",
//	      "region": "us-east-1"
//	    }
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "json"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp := emmet.New(cfg.ExpanderOptions()...)
package config
