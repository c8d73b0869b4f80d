package cmd

// Version is the build version, overridden at link time.
var Version = "0.2.0-dev"
