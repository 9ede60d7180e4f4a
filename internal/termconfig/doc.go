// Package termconfig validates terminal emulator configuration documents against a
// static schema of recognized options. Load fills every omitted option with its
// documented default, collects every type error in one pass, and either returns a
// complete Configuration or nothing. Unrecognized keys are carried through in
// Configuration.Extra unless strict mode rejects them.
package termconfig
