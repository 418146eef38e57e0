// Package keygen creates and checks the SSH keys installed on provisioned
// machines.
//
// A run without a configured public key gets a fresh RSA key pair; the
// private half is never written anywhere, so the machine is reachable only
// for the life of the run by whoever holds the returned KeyPair.
package keygen
