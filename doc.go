/*
Package worddiff compares texts word by word. Both texts are split into
words and the whitespace between them. The words are then compared by a
line based differ, one word per line, and the resulting change script is
replayed over the original texts. The output shows the new text with
deleted and inserted words marked:

	the quick {+brown+} fox [-jumps-] {+jumped+} over the dog

Whitespace itself is never compared. Common text is shown with the
whitespace of the new text.

# Words

By default a word is a maximal run of bytes that are not whitespace of the C
locale. Delimiters are characters that form a word of their own, even
without surrounding whitespace. With Options.Clusters the texts are read as
UTF-8 and the characters are grapheme clusters, which are compared in
canonical decomposition (NFD) or, with Options.IgnoreFormatting,
compatibility decomposition (NFKD).

# Context

Comparing single words easily matches common words like "the" or "a" in
otherwise unrelated text. With Options.DiffContext set to w each word is
compared together with the w words on either side of it. Changes found that
way are narrowed down step by step with smaller windows until at least
Options.MatchContext words around a matching word also match.

# Differs

The word lists are compared by a Differ. Builtin works in process and on
any afero file system. DiffCommand runs an external diff(1) and needs the
scratch files on the OS file system.
*/
package worddiff
