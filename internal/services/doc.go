// Package services holds cross-cutting helpers shared by pipeline stages:
// sentinel error markers with a common wrapping helper, and context plumbing
// for stage names, clip identifiers, and import run IDs.
package services
