// Package viz renders surfaces without a GPU.
//
//   - [Camera]: orbit projection of the unit data cube onto a 2D plane
//   - [Canvas]: Braille-based pixel canvas for terminal playback
//   - [Rasterizer]: RGBA images with axes and labels, used for export
//
// Both renderers share the same camera and painter's-algorithm ordering, so
// a terminal preview and an exported video show the same view.
package viz
