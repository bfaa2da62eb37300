// Package pkgconfig reads application configuration.
//
// Business code depends on the Config interface; Viper backs it with a YAML
// file whose keys can each be overridden from the environment
// (google.token_b64 -> GOOGLE_TOKEN_B64).
package pkgconfig
