// Command retroload loads Retrosheet event, roster and team files into a
// document store and serves the stored documents over a read-only HTTP API.
//
//	retroload load --dir ./2009eve --driver sqlite
//	retroload serve --bind 127.0.0.1:8080
package main
