// Package config loads the wc.json project file used by the wcdev tool.
//
// A minimal wc.json:
//
//	{
//	  "name": "hello",
//	  "entry": "./cmd/helloworld",
//	  "dev": { "port": 8080 }
//	}
//
// Missing fields fall back to the values returned by New. Command-line
// flags override whatever the file says.
package config
