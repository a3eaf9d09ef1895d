// Package http is the request builder and client used by guns.
//
// A Request is built once from a bullet and fired many times; Client.Do
// rebuilds the net/http request per shot and records DNS, TCP, TLS, time to
// first byte and body transfer durations through net/http/httptrace.
package http
