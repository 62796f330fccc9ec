// Package shelfcli holds the pieces of the appshelf command line that are
// worth testing on their own: output formatting for check and list, and the
// site scaffold written by init.
package shelfcli
