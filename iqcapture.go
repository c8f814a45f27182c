package iqcapture

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/iqcapture.Version=v1.2.3".
var Version = "dev"
