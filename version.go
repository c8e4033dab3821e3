package lox

// Version of the interpreter, shown in the REPL banner.
const Version = "0.1.0"
