package constants

const Version = "v0.0.1"
