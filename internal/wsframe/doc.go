// Package wsframe carries the frame boundary over a single websocket
// connection, so the host and the embedded client can run in different
// processes.
//
// Each side wraps its end of the connection in a Conn. A Conn is both a
// boundary.HostContext and a boundary.ClientContext: its Remote window (also
// returned by Parent) stands for the document at the other end. Ports
// created by NewChannel can be transferred through the Remote window; the
// receiving side gets a proxy that forwards to the retained end.
//
// Wire frames are JSON text messages:
//
//	{"kind":"window","data":{...},"ports":["01J..."]}
//	{"kind":"port","port":"01J...","data":{...}}
//	{"kind":"close","port":"01J..."}
//
// Transferred ports are named by ULID. Inbound events and port deliveries
// are queued on a Dispatcher, exactly as in memframe.
package wsframe
