package parity

// NormalizeScript is evaluated in the page before each capture. Audio
// players and the first embedded frame render differently from one load
// to the next and from one site to the other, so they are removed:
//
//   - every <audio> element is detached;
//   - the first <iframe>, if present, is detached.
//
// The function returns the number of removed nodes.
const NormalizeScript = `() => {
	let removed = 0;
	for (const el of Array.from(document.querySelectorAll('audio'))) {
		el.remove();
		removed++;
	}
	const frame = document.querySelector('iframe');
	if (frame) {
		frame.remove();
		removed++;
	}
	return removed;
}`
