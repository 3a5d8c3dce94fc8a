// Package message defines the typed envelopes exchanged between the host and
// the embedded mini app, the closed set of discriminants allowed in each
// direction, and the decoder that turns raw boundary data into one of those
// variants.
//
// The discriminant spelling and the control actions are fixed per protocol
// Dialect. Two dialects exist: DialectFlat ("themeChanged", "requestChannel")
// and DialectNamespaced ("host:themeChanged", "requestPort"). A messenger
// speaks exactly one of them.
package message
