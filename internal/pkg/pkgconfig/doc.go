// Package pkgconfig reads application settings.
//
// Code depends on the Config interface; Viper is the only implementation.
// A value is looked up in the process environment first (including anything
// LoadEnv read from config.env), then in config.yaml. The environment name of
// a key replaces dots with underscores, so JWT_SECRET overrides jwt.secret
// and HPP_WHITELIST="sort,select" overrides the hpp.whitelist list.
package pkgconfig
