/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration entity under its package name.
The configuration is loaded from the genesis file and can later be changed by
its owner using the UpdateConfigurationHandler.
*/
package gconf
