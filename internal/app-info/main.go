package app_info

// NAME is the name of this application
const NAME = "seedcrawl"

// VERSION is the current version of this application
const VERSION = "v0.1.0"
