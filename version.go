package dynstruct

// Version is the dynstruct release version.
const Version = "0.1.0"
