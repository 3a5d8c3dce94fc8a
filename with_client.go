package miniapp

import "context"

// WithClientMessenger manages a ClientMessenger's lifecycle around fn.
//
// It creates a handle on mgr, registers handler, connects, runs fn and then
// clears the handler and disconnects, whatever fn returns. The matching
// Disconnect keeps mgr's reference count balanced.
//
// Example usage:
//
//	err := miniapp.WithClientMessenger(ctx, mgr,
//	    func(msg miniapp.Message) {
//	        if p, ok := msg.Payload.(*miniapp.ThemeChangedPayload); ok {
//	            applyTheme(p.Theme)
//	        }
//	    },
//	    func(c *miniapp.ClientMessenger) error {
//	        <-ctx.Done()
//	        return nil
//	    },
//	)
func WithClientMessenger(
	ctx context.Context,
	mgr *ConnectionManager,
	handler ClientHandler,
	fn func(*ClientMessenger) error,
) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c := NewClientMessenger(mgr)
	c.SetMessageHandler(handler)
	c.Connect()

	defer c.Disconnect()

	return fn(c)
}
