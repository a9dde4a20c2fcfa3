// Package geom provides the rigid-transform math used by the scene and
// track packages: a rotation+translation Frame and a keyframed Spline of
// frames. Rotations are unit quaternions throughout.
package geom
