package seedling

// Version is the current version of seedling.
const Version = "0.1.0"
