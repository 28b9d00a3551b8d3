// Package preflight provides readiness checks for the filesystem paths
// railcheck depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs every failure as a warning.
//   - The CLI "railcheck status" command renders the same results.
//
// Write access is required for the data, export and log directories; the
// plans directory only has to be readable and should hold maps.html.
package preflight
