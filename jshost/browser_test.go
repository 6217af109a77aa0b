package jshost

// fakeBrowser installs the parts of a browser global the element shim
// relies on.
const fakeBrowser = `
globalThis.HTMLElement = class {};
globalThis.customElements = {
	defined: {},
	define(name, cls) {
		if (Object.prototype.hasOwnProperty.call(this.defined, name)) {
			throw new Error("NotSupportedError: " + name + " has already been defined");
		}
		this.defined[name] = cls;
	},
	get(name) {
		return this.defined[name];
	}
};
`
