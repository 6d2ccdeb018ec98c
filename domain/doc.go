// Package domain holds the validated value types shared by the authcore
// engine and its store backends: Email, Password, LoginAttemptID, TwoFACode
// and the User record.
//
// Every type in this package is constructed through a parse or generator
// function that enforces its format invariant; a value that exists is a value
// that is valid. Secret-bearing types redact themselves in all default
// formatting verbs and require an explicit Expose call to read.
package domain
