// Package console implements the operator prompts and the final pause on a text console.
//
// On a terminal, answers are single raw keypresses read with github.com/eiannone/keyboard.
// When stdin is redirected, whole lines are read instead and the first character decides.
package console
