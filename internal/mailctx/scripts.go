package mailctx

// MailApp is the process name Mail.app reports to System Events
const MailApp = "Mail"

// Scripts emit fields separated by the ASCII unit separator and records separated by
// the ASCII record separator. The free-text content field always comes last in a record.
// Field values pass through clean, which turns both separators into spaces.
const (
	cleanHandler = `
on clean(v)
	set AppleScript's text item delimiters to {character id 30, character id 31}
	set parts to text items of (v as string)
	set AppleScript's text item delimiters to " "
	set v to parts as string
	set AppleScript's text item delimiters to ""
	return v
end clean`

	frontmostScript = `tell application "System Events" to return name of first application process whose frontmost is true`

	selectionScript = `set us to character id 31
tell application "Mail"
	set sel to selection
	set n to count of sel
	if n is 0 then return "0"
	set m to item 1 of sel
	return (n as string) & us & my clean(sender of m) & us & my clean(subject of m) & us & my clean(content of m)
end tell` + cleanHandler

	composeScript = `set us to character id 31
tell application "Mail"
	set m to item 1 of outgoing messages
	return my clean(subject of m) & us & my clean(content of m)
end tell` + cleanHandler

	mailboxScript = `set us to character id 31
set rs to character id 30
tell application "Mail"
	set sel to selection
	set out to ""
	repeat with i from 1 to count of sel
		set m to item i of sel
		if i > 1 then set out to out & rs
		set out to out & my clean(sender of m) & us & my clean(subject of m) & us & my clean(content of m)
	end repeat
	return out
end tell` + cleanHandler
)
