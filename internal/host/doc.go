// Package host implements the messenger that runs in the embedding document.
//
// A Messenger serves exactly one embedded frame. It waits for the frame to
// ask for a channel, creates a fresh port pair for every request, transfers
// one port into the frame and exchanges typed messages over the other.
//
// State machine:
//
//	Idle --request--> AwaitingConnection --first inbound message--> Connected
//	  ^                        |                                        |
//	  +------- teardown -------+------------------ teardown ------------+
//
// Teardown happens on Disconnect, on a failed port write and whenever a new
// request supersedes the current channel.
package host
