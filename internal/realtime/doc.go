// Package realtime owns the session/event-delivery layer of the chess
// platform client: a single reconnecting WebSocket channel with an
// authentication handshake, a connection-independent subscription registry,
// a lossless outbound queue, and a session fan-out that delivers every
// inbound event to any number of independent observers.
//
// Two feeds implement the same contract: Channel pushes events over a
// WebSocket, Poller synthesizes the identical event stream from REST polling
// for deployments where WebSockets are unavailable. Consumers observe a
// Session and never need to know which transport mode is active.
package realtime
