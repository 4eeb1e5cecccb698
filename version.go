package parley

// Version is the release version of parley.
var Version = "0.4.1"
