package internal

// Version is the current mtrans release.
const Version = "0.3.1"
