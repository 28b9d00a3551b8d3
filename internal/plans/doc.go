// Package plans serves the floor plan images and their region maps.
//
// A plans directory holds one image per saloon level (plans/R1_haut.jpg and so
// on), the train schematic, and a maps.html document whose <map> elements
// describe the clickable zones of every image in natural pixels. Library
// resolves a plan id to its image, the image's natural size read from the
// file header, and the parsed regions, then renders overlays on demand.
package plans
