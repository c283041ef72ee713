// Package cipher implements the hub's session-key derivation and frame
// encryption.
//
// Every exchange after the initial gateway-identifier handshake is
// AES-128-CBC encrypted under a key derived from the hub's 6-byte
// identifier. The derivation splices identifier bytes into a fixed base
// block and runs it through eight chained single-block AES encryptions
// keyed by segments of a fixed 128-byte private constant. The IV is
// fixed and public; confidentiality here is obfuscation of a LAN
// protocol, not transport security.
//
// Messages are padded to the AES block size with random bytes before
// encryption. Decrypt recovers the true message length from the frame's
// own header (start mark + data length) and truncates the padding away;
// buffers that do not look like frames are returned whole for the codec
// to reject.
//
// Both Encrypt and Decrypt are pure functions over byte buffers aside
// from the entropy consumed for padding.
package cipher
