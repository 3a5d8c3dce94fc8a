// Package client implements the embedded document's side of the frame
// channel.
//
// A Manager owns the only channel port available to the document. It is
// shared by any number of Messenger handles: the first handle to connect
// makes the Manager ask the parent for a channel, and the last one to
// disconnect closes it. Inbound messages fan out to every handle's handler
// in registration order.
//
// Phases:
//
//	Unattached --request--> RequestSent --port--> EndpointReceived
//	    ^                                              |
//	    |                                          handshake
//	    |                                              v
//	    +------------- teardown ------------- HandshakeSent --inbound--> Connected
//
// A teardown while handles are still connected sets the pending re-request
// flag and asks the parent again right away. There is no backoff.
package client
