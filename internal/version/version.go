package version

const MajorVersion = 1

var (
	version = ""
	commit  = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}
