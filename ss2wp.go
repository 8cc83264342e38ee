// Package ss2wp converts a single published Squarespace blog post into plain
// HTML that can be pasted into the WordPress editor. It fetches the post page,
// locates the title and article body, normalizes the content into a linear
// sequence of blocks and images, and renders it alongside the downloaded
// image files.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package ss2wp
