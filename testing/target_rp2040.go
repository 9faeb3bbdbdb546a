//go:build tinygo && rp2040

package testing

const onTarget = true
