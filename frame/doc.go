// Package frame implements the pixel frame wire format consumed by the zome
// controller.
//
// A frame is a 4-byte little-endian frame id followed by four bytes (R, G, B,
// A) per pixel, in model pixel order. Frames are written back to back with no
// delimiter or length prefix; both ends must agree on the pixel count.
package frame
