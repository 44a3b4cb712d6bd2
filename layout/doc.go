// Package layout assigns surface controls to parameter rows.
//
// Loading a table classifies every row into a control type, gives it a
// per-type index and a wire address such as /fader3, and enforces the
// number of widgets the surface provides. Layout then places the controls
// on the document in a single top to bottom pass.
package layout
