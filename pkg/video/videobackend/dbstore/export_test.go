package dbstore

import "github.com/tauraamui/pixrecord/pkg/database/dbconn"

func OverloadConnect(f func(string) (dbconn.GormWrapper, error)) func() {
	ref := connect
	connect = f
	return func() { connect = ref }
}
