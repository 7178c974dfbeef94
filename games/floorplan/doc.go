// Package floorplan implements the floor plan labeling quiz.
//
// A fixed plan of named rooms is drawn as a diagram of numbered regions.
// The player is handed the room names in a shuffled pool, and gives each region one of them
// Picking a region again replaces its earlier answer
// Once every region has a name, the player may check their answers
// Checking reveals the real names, marks each region correct or incorrect, and locks the round
// Resetting discards all answers and reshuffles the pool
//
// Display formats:
// SVG diagram in the browser, numbered list of names per region
// Plain text in the terminal, with a numbered prompt per region
package floorplan
