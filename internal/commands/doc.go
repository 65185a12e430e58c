// Package commands provides the command-line interface for glogread.
//
// It implements the "read" command, which extracts Glog archives, decodes
// their entries, and writes surviving records to an output file, and a
// "version" command.
//
// The package handles command-line parsing, configuration validation, and
// environment variable binding through cobra and viper.
package commands
