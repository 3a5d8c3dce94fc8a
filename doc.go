// Package miniapp provides a typed, reconnectable message channel between a
// host document and a mini app it embeds as a frame.
//
// The two documents share no memory. The only primitive they have in common
// is an untyped, broadcast postMessage on windows plus transferable message
// ports. This package turns that into a private channel: the mini app asks
// its parent for a channel, the host answers by transferring one end of a
// fresh port pair, the mini app sends a handshake over it and from then on
// both sides exchange typed messages.
//
// # Host
//
// A HostMessenger serves one embedded frame. The target function is called
// on every event because the frame's window changes when it reloads:
//
//	host := miniapp.NewHostMessenger(page, frame.ContentWindow,
//	    miniapp.WithLogger(log),
//	)
//	host.SetMessageHandler(func(msg miniapp.Message) {
//	    if msg.Kind == miniapp.ClientSignRequest {
//	        // ...
//	    }
//	})
//	host.Connect()
//	defer host.Disconnect()
//
//	host.Send("themeChanged", &miniapp.ThemeChangedPayload{Theme: miniapp.ThemeDark})
//
// # Client
//
// Inside the mini app a single ConnectionManager owns the channel. Any number
// of ClientMessenger handles share it; the channel is requested when the
// first handle connects and closed when the last one disconnects. A lost
// channel is requested again immediately while handles remain.
//
//	mgr := miniapp.NewConnectionManager(doc, miniapp.WithLogger(log))
//
//	err := miniapp.WithClientMessenger(ctx, mgr,
//	    func(msg miniapp.Message) { log.Info("host message", "type", msg.Type) },
//	    func(c *miniapp.ClientMessenger) error {
//	        c.Send("urlChanged", &miniapp.URLChangedPayload{URL: "/stake"})
//	        <-ctx.Done()
//	        return nil
//	    },
//	)
//
// # Dialects
//
// Two wire dialects exist and are never mixed. DialectFlat, the default,
// uses flat discriminants such as "themeChanged" and the requestChannel /
// channelTransferred control actions. DialectNamespaced prefixes
// discriminants with their sender ("host:themeChanged") and makes the host
// answer the client handshake with a host:handshake snapshot. Select one with
// WithDialect on both sides.
//
// # Boundaries
//
// The protocol consumes the boundary through the interfaces in transport.go.
// NewDocument implements them in process on an EventLoop. cmd/miniapp-bridge
// carries them over a websocket.
package miniapp
