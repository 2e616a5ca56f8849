// Package packager runs the build: it checks the inputs, makes sure
// PyInstaller is installed, packages the entry script into a single windowed
// executable, publishes it into the output directory and tells the operator
// where it is.
//
// Every step blocks until it finishes and any failure aborts the run, so a
// completion message is only printed when the executable is in place.
package packager
