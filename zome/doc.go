// Package zome loads the sculpture model: pixel positions, the node/edge
// strand topology and the frame rate the controller expects.
//
// A model is immutable once loaded. Pixel slots map one to one to output
// channels; a slot may be empty when the model file holds null for it, and
// empty slots still occupy a place in every frame.
package zome
