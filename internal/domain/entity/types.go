package entity

import "strconv"

// Layer identifies the collision layer of a collider (0..31).
type Layer int

// Common layers used by the sandbox stages.
const (
	LayerDefault Layer = 0
	LayerStairs  Layer = 1
	LayerClimb   Layer = 2
	LayerWater   Layer = 4
	LayerZone    Layer = 5
	LayerAgent   Layer = 8
)

// LayerMask is a bit set of layers.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// MaskOf builds a mask from a list of layers.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l >= 0 && l < 32 {
			m |= 1 << uint(l)
		}
	}
	return m
}

// Contains reports whether layer is part of the mask.
func (m LayerMask) Contains(layer Layer) bool {
	if layer < 0 || layer >= 32 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// String returns the mask in binary form, e.g. "0b101".
func (m LayerMask) String() string {
	return "0b" + strconv.FormatUint(uint64(m), 2)
}
