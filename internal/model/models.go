package model

// All lists every model the service migrates at startup.
func All() []any {
	return []any{
		&Team{},
		&Challenge{},
		&CommunityChallenge{},
		&Key{},
		&Solve{},
		&WrongKey{},
		&Award{},
		&File{},
		&Tag{},
		&Hint{},
		&Unlock{},
	}
}
