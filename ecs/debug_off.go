//go:build !ecsdebug

package ecs

const debugChecks = false
