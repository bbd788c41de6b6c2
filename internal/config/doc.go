// Package config resolves the server configuration.
//
// Every setting is looked up along a fixed precedence chain, first match
// wins:
//  1. Environment variables (DATABASE_URI before its alias MONGODB_URI)
//  2. Command-line flags
//  3. Local defaults file (localConfig.json unless CONFIG or -c says otherwise)
//  4. Hardcoded literals
//
// The main entry points are [Resolve], which works on injected sources, and
// [GetStructuredConfig], which reads the process environment and arguments.
package config
