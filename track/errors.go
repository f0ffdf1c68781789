package track

import "errors"

// ErrAlreadyRasterized is returned by Track.AddRasterizedCount when
// the track is already marked rasterized; callers must Unrasterize
// (or unroute) before rasterizing again. The grid's keep-out counters
// would otherwise be incremented twice for the same track.
var ErrAlreadyRasterized = errors.New("track: already rasterized")

// ErrNotRasterized is returned by Track.RemoveRasterizedCount when the
// track isn't currently marked rasterized.
var ErrNotRasterized = errors.New("track: not rasterized")

// ErrEmptyTrack is returned by AutocreateVias on a track with no
// segment or via.
var ErrEmptyTrack = errors.New("track: empty")
