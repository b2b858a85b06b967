// Package config resolves samsort configuration from its three sources:
// the optional site settings file (YAML or JSONC), environment-variable
// overrides of the command-line flags, and the job-framework base
// directory convention (AGAVE_JOB_ID).
//
// Precedence, highest first: environment variable, command-line flag,
// settings file, built-in default. The unusual environment-over-flag
// ordering exists for job-submission platforms that parameterize runs
// through the job environment.
package config
