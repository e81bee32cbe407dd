// Package password hashes and verifies user passwords.
//
// New hashes use argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// bcrypt hashes ($2a$, $2b$, $2y$) are still accepted by [Hasher.Verify]
// and reported by [Hasher.NeedsRehash] so they can be replaced after the
// next successful login.
//
// This package never stores passwords or logs plaintext.
package password
