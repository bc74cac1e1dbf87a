package version

// Version is the current release of rolodex
const Version = "0.1.0"
