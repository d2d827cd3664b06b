package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	// Owner: read and write;
	// Group: read;
	// Others: read.
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for regular folders: (rwxr-xr-x).
	// Owner: read, write, and execute;
	// Group: read and execute;
	// Others: read and execute.
	DefaultFolderPermissions os.FileMode = 0o755
)

const (
	// DefaultTokensFilename is the default name of the token store file.
	DefaultTokensFilename = "tokens.txt"

	// DefaultAccountsFilename is the default name of the account source file.
	DefaultAccountsFilename = "accounts.csv"

	// DefaultEnvFilename is the dotenv file loaded at startup when present.
	DefaultEnvFilename = ".env"
)
