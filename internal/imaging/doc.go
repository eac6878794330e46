// Package imaging provides the pixel-level operations behind the viewer:
// file loading, colormaps, compositing, statistics and measurement.
//
// Raster data lives in float64 planes so 8-bit and 16-bit sources share one
// code path; display mapping (contrast limits, gamma, colormap) happens only
// at render time. A Stack indexes planes by (t, c, z), with 2-D images held
// as a 1x1x1 stack.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner; X grows
// rightward, Y downward. Regions are inclusive at (x1,y1) and exclusive at
// (x2,y2). Viewer-facing coordinates are (y, x) ordered, matching the data
// axes (t, c, z, y, x); functions taking them say so explicitly.
//
// # Thread Safety
//
// Planes and stacks are not synchronized; the viewer event loop owns them
// and is the only writer. Colormap lookup tables are built once and cached
// behind a mutex, safe for concurrent use.
package imaging
