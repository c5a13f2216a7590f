// Package config provides configuration parsing for hookslab.
//
// The configuration is stored in hooks.json. Every field is optional;
// missing fields take the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "debug": false,
//	  "logLevel": "info",
//	  "maxPasses": 100,
//	  "devtools": {
//	    "addr": "localhost:7070"
//	  },
//	  "metrics": {
//	    "namespace": "hooks"
//	  },
//	  "demo": {
//	    "tickInterval": "1s",
//	    "fetchDelay": "300ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromDir(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools:", cfg.Devtools.Addr)
package config
