// Package config turns external configuration sources into merge fragments:
// configuration files (YAML, JSON, TOML, HCL) read by path or URL,
// environment variables, and pre-split command-line key/value pairs. Load
// assembles them in precedence order: environment < files < command line.
// Trait defaults sit below all of them.
package config
