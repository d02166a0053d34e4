package main

import (
	"image/color"
	"testing"

	"github.com/milk9111/knightrun/component"
	"github.com/stretchr/testify/assert"
)

func TestSegmentOrderFarToNear(t *testing.T) {
	segs := []component.TrackSegment{
		{Slot: 0, Row: 1, Lane: -1},
		{Slot: 1, Row: 1, Lane: 0},
		{Slot: 2, Row: 1, Lane: 1},
		{Slot: 3, Row: 5, Lane: -1},
		{Slot: 4, Row: 5, Lane: 0},
		{Slot: 5, Row: 5, Lane: 1},
	}

	order := segmentOrder(segs, 2, 0)
	assert.Len(t, order, len(segs))
	assert.Equal(t, 4, order[2], "center lane is drawn last in its row")
	assert.Equal(t, 1, order[5])
	for i := 0; i < 3; i++ {
		assert.Equal(t, int64(5), segs[order[i]].Row)
	}

	order = segmentOrder(segs, 2, 1)
	assert.Equal(t, 3, order[0], "lane farthest from the camera comes first")
	assert.Equal(t, 5, order[2])
}

func TestShade(t *testing.T) {
	c := shade(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 255}, c)
}
