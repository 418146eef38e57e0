// Package config defines the run configuration and loads it from the
// environment.
//
// There is no configuration file. [Load] reads VMPROVISION_* variables,
// fills provider-specific defaults and validates the result. Unset values
// fall back to the sample deployment names (testRG,
// testVnet, testSubnet, testNIC, testVM).
package config
