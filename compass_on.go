//go:build tinygo && compass

package main

const withCompass = true
