// Package config manages user-level settings stored at ~/.hatch/config.yaml.
// Values come from the config file, HATCH_* environment variables and an
// optional ~/.env file. Resolve freezes them into a Settings value that the
// rest of the program receives explicitly.
package config
