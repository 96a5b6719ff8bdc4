package cssindex

const createSQL = `
PRAGMA auto_vacuum = INCREMENTAL;

-- Sheets is one row per stylesheet indexed, identified by caller-supplied
-- Source (a file path or URL, typically).
CREATE TABLE IF NOT EXISTS Sheets (
	SheetID INTEGER PRIMARY KEY,
	Source  TEXT NOT NULL,
	Indexed INTEGER NOT NULL -- unix seconds
);

-- Rules is one row per ruleset (or @font-face body) fired by a parse;
-- @page bodies are not recorded.
CREATE TABLE IF NOT EXISTS Rules (
	RuleID    INTEGER PRIMARY KEY,
	SheetID   INTEGER NOT NULL,
	Selectors TEXT NOT NULL, -- rendered selector group text, "" for @font-face
	Line      INTEGER NOT NULL,
	Col       INTEGER NOT NULL,

	FOREIGN KEY(SheetID) REFERENCES Sheets(SheetID)
);

CREATE INDEX IF NOT EXISTS RulesBySheet ON Rules(SheetID);

-- Declarations is one row per property: value pair within a Rule.
CREATE TABLE IF NOT EXISTS Declarations (
	DeclID    INTEGER PRIMARY KEY,
	RuleID    INTEGER NOT NULL,
	Property  TEXT NOT NULL,
	Value     TEXT NOT NULL, -- rendered expr text
	Important BOOLEAN NOT NULL,
	Hack      TEXT NOT NULL, -- "", "*", or "_"

	FOREIGN KEY(RuleID) REFERENCES Rules(RuleID)
);

CREATE INDEX IF NOT EXISTS DeclarationsByRule ON Declarations(RuleID);
CREATE INDEX IF NOT EXISTS DeclarationsByProperty ON Declarations(Property);

-- ParseErrors is one row per error event fired during a non-strict parse.
CREATE TABLE IF NOT EXISTS ParseErrors (
	ErrorID INTEGER PRIMARY KEY,
	SheetID INTEGER NOT NULL,
	Message TEXT NOT NULL,
	Line    INTEGER NOT NULL,
	Col     INTEGER NOT NULL,

	FOREIGN KEY(SheetID) REFERENCES Sheets(SheetID)
);
`
