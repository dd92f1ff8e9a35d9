// Package retrosheet parses Retrosheet event, team and roster files.
//
// Event files are flat comma-separated streams where every line is a record
// whose first field names its type. An Assembler folds those records into
// Game values: an "id" record opens a game, the records that follow mutate
// it, and the next "id" record (or an explicit Flush) hands the finished game
// to a GameHandler. Play descriptions carry their own small grammar which
// ParsePlay splits into code, modifier and runner advances.
//
// Team and roster files are fixed-column CSV and map one line to one
// document. File names encode the season and team and are parsed up front so
// downstream keys never have to be guessed.
package retrosheet
